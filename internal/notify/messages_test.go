package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "online", got: PlayerOnline("alice"), want: "🟢 **alice** is now **ONLINE**."},
		{name: "offline", got: PlayerOffline("alice"), want: "🔴 **alice** is now **OFFLINE**."},
		{name: "alarm on", got: AlarmTriggered("Base"), want: "🚨 **SMART ALARM TRIGGERED**: Base!"},
		{name: "alarm off", got: AlarmCleared("Base"), want: "✅ Smart Alarm Cleared: Base"},
		{name: "switch on", got: SwitchToggled("Lights", true), want: "🔌 Switch **Lights** turned **ON**."},
		{name: "switch off", got: SwitchToggled("Lights", false), want: "🔌 Switch **Lights** turned **OFF**."},
		{name: "storage", got: StorageCapacity("TC", 24), want: "📦 Storage Monitor **TC**: Capacity 24"},
		{name: "spawn", got: Spawned("🚢 Cargo Ship"), want: "**🚢 Cargo Ship** has spawned!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	short := "hello"
	assert.Equal(t, short, Truncate(short))

	exact := strings.Repeat("a", MaxMessageLength)
	assert.Equal(t, exact, Truncate(exact))

	long := Truncate(strings.Repeat("a", MaxMessageLength+10))
	assert.Len(t, []rune(long), MaxMessageLength)
	assert.True(t, strings.HasSuffix(long, "…"))
}
