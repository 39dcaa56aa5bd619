package main

import (
	"fmt"
	"os"

	"github.com/careerpath/mentor-server-go/internal/util"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: AUTH_TOKEN_SECRET=... go run scripts/issue-token.go <owner-id>\n")
		os.Exit(1)
	}

	secret := os.Getenv("AUTH_TOKEN_SECRET")
	if secret == "" {
		fmt.Fprintf(os.Stderr, "Error: AUTH_TOKEN_SECRET is not set\n")
		os.Exit(1)
	}

	fmt.Println(util.SignUserToken(secret, os.Args[1]))
}
