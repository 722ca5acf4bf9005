package media

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SeedLabel is the volume label the cloud-init NoCloud datasource looks for.
const SeedLabel = "CIDATA"

// Seed describes a cloud-init NoCloud seed image, a common payload for test
// domains that boot with a cdrom attached.
type Seed struct {
	InstanceID string
	Hostname   string

	// UserData is written verbatim; it normally starts with "#cloud-config".
	UserData string
}

type metaData struct {
	InstanceID    string `yaml:"instance-id"`
	LocalHostname string `yaml:"local-hostname,omitempty"`
}

// Files returns the meta-data and user-data entries of the seed.
func (s Seed) Files() ([]File, error) {
	if s.InstanceID == "" {
		return nil, fmt.Errorf("instance id is required")
	}

	meta, err := yaml.Marshal(&metaData{InstanceID: s.InstanceID, LocalHostname: s.Hostname})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal meta-data: %w", err)
	}

	userData := s.UserData
	if userData == "" {
		userData = "#cloud-config\n"
	}

	return []File{
		{Name: "meta-data", Data: meta},
		{Name: "user-data", Data: []byte(userData)},
	}, nil
}

// BuildSeedISO builds the seed as an image labelled CIDATA.
func BuildSeedISO(s Seed) ([]byte, error) {
	files, err := s.Files()
	if err != nil {
		return nil, err
	}
	return BuildISO(SeedLabel, files)
}
