package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           jamsd API
// @version         1.0
// @description     Multi-framework ML model server: tensor-in/tensor-out inference over HTTP or gRPC.
//
// @contact.name   jamsd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
