// Package useragent classifies browsers and devices from User-Agent strings
// for the login flow's per-client rules.
package useragent

import "regexp"

// DeviceType buckets a client into desktop, mobile, or tablet.
type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
)

// DeviceInfo is the parsed classification of a User-Agent string.
type DeviceInfo struct {
	Browser    string
	OS         string
	DeviceType DeviceType
}

var (
	reEdge    = regexp.MustCompile(`(?i)Edg/`)
	reOpera   = regexp.MustCompile(`(?i)OPR|Opera`)
	reChrome  = regexp.MustCompile(`(?i)Chrome`)
	reFirefox = regexp.MustCompile(`(?i)Firefox`)
	reSafari  = regexp.MustCompile(`(?i)Safari`)
	reIE      = regexp.MustCompile(`(?i)MSIE|Trident`)

	reWindows = regexp.MustCompile(`(?i)Windows`)
	reMac     = regexp.MustCompile(`(?i)Macintosh|Mac OS`)
	reAndroid = regexp.MustCompile(`(?i)Android`)
	reIOS     = regexp.MustCompile(`(?i)iPhone|iPad|iPod`)
	reLinux   = regexp.MustCompile(`(?i)Linux`)
	reChromeOS = regexp.MustCompile(`(?i)CrOS`)

	reMobile = regexp.MustCompile(`(?i)Mobi|iPhone|iPod`)
	// Checked after the mobile match, so any remaining Android UA is a tablet.
	reTablet = regexp.MustCompile(`(?i)Tablet|iPad|Android`)
)

// Parse classifies a User-Agent string. Unknown agents come back as a
// desktop with browser and OS set to "Unknown".
func Parse(ua string) DeviceInfo {
	browser := "Unknown"
	switch {
	case reEdge.MatchString(ua):
		browser = "Edge"
	case reOpera.MatchString(ua):
		browser = "Opera"
	case reChrome.MatchString(ua):
		browser = "Chrome"
	case reFirefox.MatchString(ua):
		browser = "Firefox"
	case reSafari.MatchString(ua):
		browser = "Safari"
	case reIE.MatchString(ua):
		browser = "Internet Explorer"
	}

	os := "Unknown"
	switch {
	case reChromeOS.MatchString(ua):
		os = "ChromeOS"
	case reWindows.MatchString(ua):
		os = "Windows"
	case reMac.MatchString(ua) && !reIOS.MatchString(ua):
		os = "macOS"
	case reAndroid.MatchString(ua):
		os = "Android"
	case reIOS.MatchString(ua):
		os = "iOS"
	case reLinux.MatchString(ua):
		os = "Linux"
	}

	deviceType := DeviceDesktop
	switch {
	case reMobile.MatchString(ua):
		deviceType = DeviceMobile
	case reTablet.MatchString(ua):
		deviceType = DeviceTablet
	}

	return DeviceInfo{Browser: browser, OS: os, DeviceType: deviceType}
}

// IsChromeDesktop reports Chrome on a desktop (Edge and Opera excluded,
// their UAs also carry the Chrome token).
func IsChromeDesktop(ua string) bool {
	info := Parse(ua)
	return info.Browser == "Chrome" && info.DeviceType == DeviceDesktop
}

// IsMicrosoftBrowser reports Edge or Internet Explorer.
func IsMicrosoftBrowser(ua string) bool {
	info := Parse(ua)
	return info.Browser == "Edge" || info.Browser == "Internet Explorer"
}

// IsMobileDevice reports a mobile client.
func IsMobileDevice(ua string) bool {
	return Parse(ua).DeviceType == DeviceMobile
}
