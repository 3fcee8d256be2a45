//go:generate swag init -g docs.go -o ../../docs --parseDependency --parseInternal --dir .,../../internal/httpapi

package main

// @title pastebox API
// @version 1.0
// @description HTTP API for creating and sharing pastes.
// @BasePath /v1
