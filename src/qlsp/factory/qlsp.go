package factory

import (
	"fmt"

	"github.com/uber/qchat-lsp/src/qlsp/entity"
)

// Manifest returns a manifest listing the given versions, each with a single zip target for platform and arch.
func Manifest(platform, arch string, versions ...string) *entity.Manifest {
	m := &entity.Manifest{
		ManifestSchemaVersion: "0.1",
		ArtifactID:            "CodeWhispererLanguageServer",
	}
	for _, v := range versions {
		m.Versions = append(m.Versions, entity.ArtifactVersion{
			ServerVersion: v,
			Targets: []entity.Target{
				{
					Platform: platform,
					Arch:     arch,
					Contents: []entity.Content{
						{
							Filename: "servers.zip",
							URL:      fmt.Sprintf("https://example.com/%s/servers.zip", v),
							Hashes:   []string{"sha384:00"},
						},
					},
				},
			},
		})
	}
	return m
}

// LoggedInState returns a valid LOGGED_IN state for the given login type.
func LoggedInState(loginType entity.LoginType) entity.AuthState {
	params := &entity.LoginParams{}
	if loginType == entity.LoginTypeIAMIdentityCenter {
		params = &entity.LoginParams{StartURL: "https://corp.awsapps.com/start", Region: "us-east-1"}
	}
	return entity.AuthState{
		Status:      entity.AuthStatusLoggedIn,
		LoginType:   loginType,
		LoginParams: params,
		SsoTokenID:  "sso-token-" + UUID().String(),
	}
}
