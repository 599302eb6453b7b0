package main

// @title Trendmart API
// @version 1.0
// @description E-commerce backend API for catalog browsing and administration with full observability (logging, tracing, metrics)
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/almast/trendmart
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/almast/trendmart/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Products
// @tag.description Public catalog endpoints

// @tag.name Admin
// @tag.description Admin catalog management endpoints

// @tag.name Auth
// @tag.description Authentication endpoints

// @tag.name Health
// @tag.description Health check endpoints

// @tag.name Swagger
// @tag.description Swagger documentation endpoints
