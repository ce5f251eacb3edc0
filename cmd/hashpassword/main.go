// Command hashpassword prints a bcrypt hash for ADMIN_PASSWORD_HASH.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"movextransfer/internal/repository"
)

func main() {
	password := ""
	if len(os.Args) > 1 {
		password = os.Args[1]
	} else {
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		fmt.Fprintln(os.Stderr, "usage: hashpassword <password>  (or pipe it on stdin)")
		os.Exit(2)
	}

	hash, err := repository.HashPassword(password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
