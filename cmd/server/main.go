package main

import (
	"github.com/remesalabs/remesa-backend/internal/server"
)

func main() {
	server.Init()
}
