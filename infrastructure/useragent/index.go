package useragent

import (
	"strings"

	"github.com/mileusna/useragent"
)

type UserAgent struct {
	Bot       bool
	OS        string
	OSVersion string
	Device    string
	Name      string
	Version   string
	Mobile    bool
}

func ParseUserAgent(userAgent string) *UserAgent {
	parsed := useragent.Parse(userAgent)
	return &UserAgent{
		Bot:       parsed.Bot,
		OS:        parsed.OS,
		OSVersion: parsed.OSVersion,
		Device:    parsed.Device,
		Name:      parsed.Name,
		Version:   parsed.Version,
		Mobile:    parsed.Mobile,
	}
}

// DeviceName is a short human label such as "Chrome on Android (Pixel 7)".
func (ua *UserAgent) DeviceName() string {
	if ua.Name == "" && ua.OS == "" {
		return "unknown device"
	}
	var b strings.Builder
	b.WriteString(orUnknown(ua.Name))
	b.WriteString(" on ")
	b.WriteString(orUnknown(ua.OS))
	if ua.Device != "" {
		b.WriteString(" (")
		b.WriteString(ua.Device)
		b.WriteString(")")
	}
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
