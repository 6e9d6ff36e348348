package usecase

import (
	"strings"

	"github.com/AzizDev404/Qr/internal/domain/entity"
)

var tabletTokens = []string{"ipad", "tablet", "kindle", "silk", "playbook"}

var mobileTokens = []string{"mobi", "iphone", "ipod", "android", "phone", "blackberry", "opera mini", "windows phone"}

// ClassifyDevice derives a coarse device class from a user-agent string.
// Tablet tokens win over mobile tokens because Android tablets also mention
// "android"; everything unrecognized is desktop.
func ClassifyDevice(userAgent string) entity.DeviceClass {
	ua := strings.ToLower(userAgent)

	for _, token := range tabletTokens {
		if strings.Contains(ua, token) {
			return entity.DeviceTablet
		}
	}
	for _, token := range mobileTokens {
		if strings.Contains(ua, token) {
			return entity.DeviceMobile
		}
	}
	return entity.DeviceDesktop
}
