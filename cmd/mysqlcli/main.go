package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	mysqlbind "github.com/tomyedwab/mysqlbind/driver"
	"github.com/tomyedwab/mysqlbind/native/gomysql"
)

func printResult(res *mysqlbind.Result) error {
	fields := res.Fields()
	if len(fields) > 0 {
		names := make([]string, len(fields))
		for i, f := range fields {
			names[i] = f.Name
		}
		fmt.Println(strings.Join(names, "\t"))
	}

	count := 0
	for {
		row, err := res.Next()
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		cols := make([]string, len(row))
		for i, col := range row {
			if col == nil {
				cols[i] = "NULL"
			} else {
				cols[i] = string(col)
			}
		}
		fmt.Println(strings.Join(cols, "\t"))
		count++
	}
	fmt.Printf("%d row(s)\n", count)
	return nil
}

func main() {
	host := flag.String("host", "127.0.0.1", "MySQL server host")
	port := flag.Int("port", 3306, "MySQL server port")
	user := flag.String("user", "root", "User to authenticate as")
	password := flag.String("password", "", "Password to authenticate with")
	db := flag.String("db", "", "Default database")
	flag.Parse()

	conn, err := mysqlbind.Connect(gomysql.Library{}, mysqlbind.Config{
		Host:     *host,
		Port:     *port,
		User:     *user,
		Password: *password,
		Database: *db,
	})
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Disconnect()

	fmt.Printf("Connected to %s (%s)\n", conn.HostInfo(), conn.ServerInfo())

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		switch {
		case query == "":
		case query == "\\q" || strings.EqualFold(query, "quit"):
			return
		default:
			res, err := conn.Query([]byte(query))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				break
			}
			if res.ColumnCount() == 0 {
				fmt.Printf("OK, %d row(s) affected\n", conn.AffectedRows())
			} else if err := printResult(res); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			res.Free()
		}
		fmt.Print("> ")
	}
}
