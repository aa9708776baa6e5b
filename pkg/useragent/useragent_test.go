package useragent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	chromeWindowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	edgeWindowsUA   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0"
	firefoxLinuxUA  = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	safariIphoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	chromeAndroidUA = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	ipadUA          = "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/604.1"
	ieUA            = "Mozilla/5.0 (Windows NT 10.0; Trident/7.0; rv:11.0) like Gecko"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		ua      string
		browser string
		os      string
		device  DeviceType
	}{
		{"chrome on windows", chromeWindowsUA, "Chrome", "Windows", DeviceDesktop},
		{"edge on windows", edgeWindowsUA, "Edge", "Windows", DeviceDesktop},
		{"firefox on linux", firefoxLinuxUA, "Firefox", "Linux", DeviceDesktop},
		{"safari on iphone", safariIphoneUA, "Safari", "iOS", DeviceMobile},
		{"chrome on android phone", chromeAndroidUA, "Chrome", "Android", DeviceMobile},
		{"safari on ipad", ipadUA, "Safari", "iOS", DeviceTablet},
		{"internet explorer", ieUA, "Internet Explorer", "Windows", DeviceDesktop},
		{"empty", "", "Unknown", "Unknown", DeviceDesktop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Parse(tt.ua)
			assert.Equal(t, tt.browser, info.Browser)
			assert.Equal(t, tt.os, info.OS)
			assert.Equal(t, tt.device, info.DeviceType)
		})
	}
}

func TestIsChromeDesktop(t *testing.T) {
	assert.True(t, IsChromeDesktop(chromeWindowsUA))
	// Edge carries the Chrome token but is not Chrome.
	assert.False(t, IsChromeDesktop(edgeWindowsUA))
	// Chrome on a phone is not desktop Chrome.
	assert.False(t, IsChromeDesktop(chromeAndroidUA))
}

func TestIsMicrosoftBrowser(t *testing.T) {
	assert.True(t, IsMicrosoftBrowser(edgeWindowsUA))
	assert.True(t, IsMicrosoftBrowser(ieUA))
	assert.False(t, IsMicrosoftBrowser(chromeWindowsUA))
}

func TestIsMobileDevice(t *testing.T) {
	assert.True(t, IsMobileDevice(safariIphoneUA))
	assert.True(t, IsMobileDevice(chromeAndroidUA))
	assert.False(t, IsMobileDevice(ipadUA))
	assert.False(t, IsMobileDevice(chromeWindowsUA))
}
