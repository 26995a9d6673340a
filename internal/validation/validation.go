// Package validation binds incoming requests into typed request structs and
// runs their Validate method.
//
// Binding problems are reported as plain errors. Validation problems become a
// 400 *errs.HTTPError listing the offending fields.
package validation
