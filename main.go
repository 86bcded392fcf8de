package main

import "github.com/valpere/geojson_overlay/cmd"

func main() {
	cmd.Execute()
}
