package main

import "farmfeed-api/app"

func main() {
	app.Run()
}
