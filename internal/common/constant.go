package common

// Names of the two JSON table documents stored in the content bucket.
// Both must exist before the backend serves its first request.
const (
	UserTableDocument = "info.json"
	SiteInfoDocument  = "website_info.json"
)

// Default profile picture sentinels. These are shared blobs and are never
// deleted when a user switches to a custom picture.
const (
	DefaultProfilePicture          = "default-profile-picture.png"
	SecondaryDefaultProfilePicture = "barnaby-profile-picture.png"
)

// IsDefaultProfilePicture reports whether name is one of the shared default
// sentinels rather than a per-user uploaded blob.
func IsDefaultProfilePicture(name string) bool {
	return name == DefaultProfilePicture || name == SecondaryDefaultProfilePicture
}
