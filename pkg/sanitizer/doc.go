// Package sanitizer normalizes accommodation data before validation and storage.
//
// All normalization functions are idempotent: applying them twice gives the
// same result as applying them once. Invalid input yields an empty value
// rather than an error; validation decides whether empty is acceptable.
//
// Normalization includes:
//   - Strings: collapse whitespace, trim leading/trailing spaces
//   - Slugs: lowercase ASCII, accents folded, words joined by single hyphens ("Casa Limón" -> "casa-limon")
//   - Image references: absolute http(s) URLs keep their case-sensitive path, tracking parameters are dropped;
//     site-relative paths get a leading slash
//   - Features: whitespace collapsed, case-insensitive duplicates and empties removed
//   - Numbers: clamp to valid ranges
package sanitizer
