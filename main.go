package main

import "todo-stream.com/todo-stream/cmd"

func main() {
	cmd.Execute()
}
