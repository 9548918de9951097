package sanitizer

func NormalizeFeatures(features []string) []string {
	return SanitizeSlice(features, TrimAndNormalize)
}

func NormalizeImages(images []string) []string {
	return SanitizeSlice(images, SanitizeImageRef)
}
