package mapper

import (
	"encoding/json"
	"fmt"

	"github.com/uber/qchat-lsp/src/qlsp/entity"
	"github.com/uber/qchat-lsp/src/qlsp/model"
)

// AuthStateToRecord maps an AuthState to the keys that are persisted. A NONE login type clears every key.
func AuthStateToRecord(s entity.AuthState) (model.AuthRecord, error) {
	if s.LoginType == entity.LoginTypeNone || s.LoginType == "" {
		return model.AuthRecord{}, nil
	}

	record := model.AuthRecord{
		LoginType:  string(s.LoginType),
		SsoTokenID: s.SsoTokenID,
	}
	if s.LoginParams != nil {
		params, err := json.Marshal(s.LoginParams)
		if err != nil {
			return model.AuthRecord{}, fmt.Errorf("marshalling login params: %w", err)
		}
		record.LoginParams = string(params)
	}
	return record, nil
}

// RecordToAuthState resynchronizes an AuthState from persisted keys. Missing or NONE login types are
// logged out; any other stored type is logged in.
func RecordToAuthState(r model.AuthRecord) (entity.AuthState, error) {
	loginType := entity.LoginType(r.LoginType)
	if r.LoginType == "" || loginType == entity.LoginTypeNone {
		return entity.LoggedOutState(), nil
	}
	if !loginType.Valid() {
		return entity.LoggedOutState(), fmt.Errorf("unknown stored login type %q", r.LoginType)
	}

	params := &entity.LoginParams{}
	if r.LoginParams != "" {
		if err := json.Unmarshal([]byte(r.LoginParams), params); err != nil {
			return entity.LoggedOutState(), fmt.Errorf("unmarshalling stored login params: %w", err)
		}
	}

	state := entity.AuthState{
		Status:      entity.AuthStatusLoggedIn,
		LoginType:   loginType,
		LoginParams: params,
		SsoTokenID:  r.SsoTokenID,
	}
	if err := state.Validate(); err != nil {
		return entity.LoggedOutState(), fmt.Errorf("stored auth state: %w", err)
	}
	return state, nil
}

// LoginToSsoTokenParams builds the token service request for a login. Interactive requests may prompt
// the user to sign in.
func LoginToSsoTokenParams(clientName string, loginType entity.LoginType, params *entity.LoginParams, interactive bool) *entity.GetSsoTokenParams {
	source := entity.SsoTokenSource{Kind: entity.SsoSourceBuilderID}
	if loginType == entity.LoginTypeIAMIdentityCenter && params != nil {
		source = entity.SsoTokenSource{
			Kind:        entity.SsoSourceIAMIdentityCenter,
			ProfileName: clientName,
			StartURL:    params.StartURL,
			Region:      params.Region,
		}
	}
	return &entity.GetSsoTokenParams{
		ClientName: clientName,
		Source:     source,
		Options:    entity.GetSsoTokenOptions{LoginOnInvalidToken: interactive},
	}
}
