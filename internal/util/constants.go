package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 文件上传相关常量
const (
	MimeImage      = "image/"
	MaxImageSize   = 5 << 20
	BadgeDirectory = "badges"
	PhotoDirectory = "trainers"
)

var (
	AllowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}
)
