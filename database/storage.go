package database

import "gorm.io/gorm"

// Storage is the record store handed to the router and handlers.
type Storage interface {
	DB() *gorm.DB
	Init() error
	Close() error
	HealthCheck() error
}
