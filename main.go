package main

import "github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/cmd"

func main() {
	cmd.Execute()
}
