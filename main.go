package main

import "github.com/nsxzhou1114/news-portal/cmd"

func main() {
	cmd.Execute()
}
