package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubscription(t *testing.T) {
	tests := []struct {
		name    string
		frame   string
		want    map[EntityType]bool
		wantErr bool
	}{
		{
			name:  "single entity",
			frame: `{"action":"subscribe","entities":["dashboard"]}`,
			want:  map[EntityType]bool{EntityTypeDashboard: true},
		},
		{
			name:  "both entities",
			frame: `{"action":"subscribe","entities":["dashboard","baseline"]}`,
			want:  map[EntityType]bool{EntityTypeDashboard: true, EntityTypeBaseline: true},
		},
		{
			name:  "empty list means everything",
			frame: `{"action":"subscribe","entities":[]}`,
			want:  nil,
		},
		{name: "unknown entity", frame: `{"action":"subscribe","entities":["invoices"]}`, wantErr: true},
		{name: "unknown action", frame: `{"action":"unsubscribe"}`, wantErr: true},
		{name: "not json", frame: `hello`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSubscription([]byte(tt.frame))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Subscribed(t *testing.T) {
	c := &Client{}
	assert.True(t, c.Subscribed(EntityTypeBaseline), "new clients receive every entity")

	c.setTopics(map[EntityType]bool{EntityTypeDashboard: true})
	assert.True(t, c.Subscribed(EntityTypeDashboard))
	assert.False(t, c.Subscribed(EntityTypeBaseline))
}
