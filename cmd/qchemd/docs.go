package main

// General API documentation for swaggo. The served document lives in
// internal/httpapi/swagger.go and is only compiled with -tags=swagger.
//
// @title           qchemd API
// @version         1.0
// @description     HTTP API for running quantum chemistry drivers.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
