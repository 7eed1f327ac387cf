// Package db embeds the database schema applied on startup.
package db

import _ "embed"

// Schema holds the DDL for the storefront tables: users, products,
// addresses, orders, order_items, and payments.
//
//go:embed migrations/001_schema.sql
var Schema string
