package main

import "github.com/wundergraph/persisted-query-ids/cmd"

func main() {
	cmd.Execute()
}
