// Package model holds the types shared between the HTTP, service and
// repository layers. Domain packages live underneath it.
package model
