// Package testutil contains helper builders and stub providers used across
// tests to reduce boilerplate when constructing requests, histories and
// provider sets. They are not intended for production usage.
package testutil
