package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Catena Supply Lifecycle API
// @version         0.1.0
// @description     Supply agreements, requests, uplift orders, and delivery outcomes.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
