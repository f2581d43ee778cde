// cmd/preflight/main.go
package main

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	hosts := strings.TrimSpace(os.Getenv("HOSTS"))
	dbPath := strings.TrimSpace(os.Getenv("DB_PATH"))
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	addr := strings.TrimSpace(os.Getenv("ADDR"))

	if _, err := exec.LookPath("ping"); err != nil {
		fail("ping binary not found on PATH; probing cannot work.")
	}
	ok("ping binary found")

	if hosts == "" {
		warn("HOSTS empty — the built-in defaults will be monitored.")
	} else {
		for _, h := range strings.Split(hosts, ",") {
			h = strings.TrimSpace(h)
			if h == "" {
				fail("HOSTS contains an empty entry; use comma-separated with no trailing comma.")
			}
			if ip := net.ParseIP(h); ip == nil && strings.ContainsAny(h, " /") {
				fail("HOSTS entry looks invalid: " + h)
			}
		}
		ok("HOSTS=" + hosts)
	}

	if db == "" && dbPath == "" {
		warn("DATABASE_URL and DB_PATH both empty — the default SQLite file will be used.")
	} else if db != "" {
		ok("DATABASE_URL present")
	} else {
		ok("DB_PATH=" + dbPath)
	}

	if addr == "" {
		warn("ADDR is empty; the default bind address will be used.")
	} else {
		ok("ADDR=" + addr)
	}

	ok("preflight passed")
}
