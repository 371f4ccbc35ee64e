package dialogs

// UpdatePrompt is the question shown when a new app version has installed.
const UpdatePrompt = "A new version of this app is available. Reload now?"

// ConfirmUpdate asks whether to switch to a freshly installed version.
func ConfirmUpdate() bool {
	return Confirm(UpdatePrompt)
}
