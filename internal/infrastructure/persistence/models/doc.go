// Package models contains the GORM persistence models and their mapping to domain types.
// Domain packages never import this package.
package models
