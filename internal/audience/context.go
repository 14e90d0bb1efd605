package audience

import "github.com/shobhitraaj/skytarget/internal/tagselector"

// Platform identifies which app-version key a version predicate is
// evaluated under.
type Platform string

// Platform version keys used in the synthetic version document.
const (
	PlatformAndroid Platform = "android"
	PlatformAmazon  Platform = "amazon"
)

// VersionKey returns the document key the app version code is published
// under for this platform. Unknown platforms fall back to android.
func (p Platform) VersionKey() string {
	if p == PlatformAmazon {
		return string(PlatformAmazon)
	}
	return string(PlatformAndroid)
}

// Valid reports whether p names a supported platform.
func (p Platform) Valid() bool {
	return p == PlatformAndroid || p == PlatformAmazon
}

// Context is the caller-supplied snapshot of device and user state an
// audience is evaluated against. The engine never caches or mutates it;
// the caller materializes a consistent snapshot per evaluation call.
type Context struct {
	IsNewUser          bool
	NotificationsOptIn bool
	LocationOptIn      bool
	Locale             string
	AppVersionCode     int
	ChannelTags        tagselector.TagSet
	DeviceHash         string
	Platform           Platform
}
