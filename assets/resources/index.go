package resources

import (
	_ "embed"
)

//go:generate sh -c "cd ../.. && go run . -manifest assets/resources/panels.toml -base ."

const (
	AppName    = "deskgen"
	AppVersion = "0.1.0"

	DefaultDomain      = "cinnamon-control-center"
	DefaultTool        = "cinnamon-control-center"
	DefaultCatalogRoot = "/usr/share/locale"

	DefaultManifestName = "panels.toml"
)

//go:embed panels.toml
var DefaultManifest []byte
