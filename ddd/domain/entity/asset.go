package entity

// DownloadedAsset the raw source file on local disk.
type DownloadedAsset struct {
	Path string
	Size int64
}

// HLSPackage a transcoded rendition set. MasterPlaylist is non-empty whenever
// the package was reported successful.
type HLSPackage struct {
	Dir            string
	MasterPlaylist string   // absolute path of the master playlist
	PublicPath     string   // "{videoID}/{master}", appended to the public base URL
	Variants       []string // media playlist URIs in master order
	Files          []string // every file in Dir, relative to Dir
}
