package enums

import "fmt"

// PhotoSourceMode controls how drivers may supply pickup photos.
type PhotoSourceMode string

const (
	PhotoSourceModeCameraOnly     PhotoSourceMode = "camera_only"
	PhotoSourceModeCameraOrUpload PhotoSourceMode = "camera_or_upload"
)

var validPhotoSourceModes = []PhotoSourceMode{
	PhotoSourceModeCameraOnly,
	PhotoSourceModeCameraOrUpload,
}

// String implements fmt.Stringer.
func (p PhotoSourceMode) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PhotoSourceMode.
func (p PhotoSourceMode) IsValid() bool {
	for _, candidate := range validPhotoSourceModes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePhotoSourceMode converts raw input into a PhotoSourceMode.
func ParsePhotoSourceMode(value string) (PhotoSourceMode, error) {
	for _, candidate := range validPhotoSourceModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid photo source mode %q", value)
}
