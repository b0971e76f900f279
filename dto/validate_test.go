package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type validatable interface {
	Validate() error
}

func TestUpdateRequestLengthLimits(t *testing.T) {
	long := strings.Repeat("x", 256)
	atLimit := strings.Repeat("x", 255)

	tests := []struct {
		name    string
		req     validatable
		wantErr string
	}{
		{name: "release name too long", req: &ReleaseUpdateRequest{Name: Some(long)}, wantErr: "name failed the 'max' rule"},
		{name: "release name at limit", req: &ReleaseUpdateRequest{Name: Some(atLimit)}},
		{name: "release version too long", req: &ReleaseUpdateRequest{Version: Some(strings.Repeat("1", 51))}, wantErr: "version failed the 'max' rule"},
		{name: "service name too long", req: &ServiceUpdateRequest{Name: Some(long)}, wantErr: "name failed the 'max' rule"},
		{name: "service name at limit", req: &ServiceUpdateRequest{Name: Some(atLimit)}},
		{name: "service owner too long", req: &ServiceUpdateRequest{Owner: Some(long)}, wantErr: "owner failed the 'max' rule"},
		{name: "service owner cleared", req: &ServiceUpdateRequest{Owner: Null[string]()}},
		{name: "environment description too long", req: &EnvironmentUpdateRequest{Description: Some(long)}, wantErr: "description failed the 'max' rule"},
		{name: "role description too long", req: &RoleUpdateRequest{Description: Some(long)}, wantErr: "description failed the 'max' rule"},
		{name: "user full name too long", req: &UserUpdateRequest{FullName: Some(long)}, wantErr: "full_name failed the 'max' rule"},
		{name: "user full name cleared", req: &UserUpdateRequest{FullName: Null[string]()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Equal(t, tt.wantErr, err.Error())
			}
		})
	}
}

func TestUpdateRequestRejectsBlankNames(t *testing.T) {
	assert.EqualError(t, (&ReleaseUpdateRequest{Name: Some("  ")}).Validate(), "name cannot be empty")
	assert.EqualError(t, (&ServiceUpdateRequest{Name: Null[string]()}).Validate(), "name cannot be null")
	assert.NoError(t, (&ServiceUpdateRequest{}).Validate())
}
