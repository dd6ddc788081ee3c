package version

import (
	"fmt"
	"strconv"
	"time"
)

// Version is the application version. Can be overridden at build time via:
//
//	go build -ldflags "-X winsbygroup.com/logitrack/internal/version.Version=1.2.3"
var Version = "1.0"

// Banner prints identifying information about the server.
func Banner() string {
	y := strconv.Itoa(time.Now().Year())
	copyright := "Copyright 2025-" + y + " Winsby Group LLC. All rights reserved."

	return fmt.Sprintf("%s\nLogitrack (v%s)\n%s\n", logo, Version, copyright)
}

const logo = `
  _                _ _                  _    
 | |    ___   __ _(_) |_ _ __ __ _  ___| | __
 | |   / _ \ / _' | | __| '__/ _' |/ __| |/ /
 | |__| (_) | (_| | | |_| | | (_| | (__|   < 
 |_____\___/ \__, |_|\__|_|  \__,_|\___|_|\_\
             |___/
`
