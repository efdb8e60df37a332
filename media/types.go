// media/types.go
package media

type AssetType string

const (
	AssetTypePhoto     AssetType = "photo"
	AssetTypeAvatar    AssetType = "avatar"
	AssetTypeThumbnail AssetType = "thumbnail"
	AssetTypeUnknown   AssetType = "unknown"
)
