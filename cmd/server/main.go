package main

import "atlascrm/internal/app"

// @title        Atlas CRM pipeline API
// @version      1.0
// @description  Sales pipeline workflow: leads, opportunities, quotations, sales orders.
// @BasePath     /
func main() {
	app.Run()
}
