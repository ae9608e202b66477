package main

import "knowledge-base/internal/bootstrap"

func main() {
	bootstrap.Run()
}
