package notify

import (
	"fmt"
	"unicode/utf8"
)

// MaxMessageLength is the Discord message size limit in characters
const MaxMessageLength = 2000

// WipeMessage announces a recorded wipe
const WipeMessage = "🧹 **Wipe Detected/Set!** Stats reset."

// PlayerOnline announces a player coming online
func PlayerOnline(name string) string {
	return fmt.Sprintf("🟢 **%s** is now **ONLINE**.", name)
}

// PlayerOffline announces a player going offline
func PlayerOffline(name string) string {
	return fmt.Sprintf("🔴 **%s** is now **OFFLINE**.", name)
}

// AlarmTriggered announces a smart alarm going off
func AlarmTriggered(name string) string {
	return fmt.Sprintf("🚨 **SMART ALARM TRIGGERED**: %s!", name)
}

// AlarmCleared announces a smart alarm returning to idle
func AlarmCleared(name string) string {
	return fmt.Sprintf("✅ Smart Alarm Cleared: %s", name)
}

// SwitchToggled announces a smart switch state change
func SwitchToggled(name string, on bool) string {
	state := "OFF"
	if on {
		state = "ON"
	}
	return fmt.Sprintf("🔌 Switch **%s** turned **%s**.", name, state)
}

// StorageCapacity reports a storage monitor reading
func StorageCapacity(name string, capacity int) string {
	return fmt.Sprintf("📦 Storage Monitor **%s**: Capacity %d", name, capacity)
}

// Spawned announces a map event
func Spawned(label string) string {
	return fmt.Sprintf("**%s** has spawned!", label)
}

// Truncate shortens text to MaxMessageLength characters, keeping runes intact
func Truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxMessageLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxMessageLength-1]) + "…"
}
