package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/nhath/irfinder/internal/config"
	"github.com/nhath/irfinder/internal/ui/components/profileselector"
)

func (m Model) openProfiles() (tea.Model, tea.Cmd) {
	m.dropdown = m.dropdown.Hide()
	m.profileSelector = m.profileSelector.
		SetProfiles(m.config.Profiles, m.profileName()).
		ResetState().
		SetStatusMessage("")
	m.showProfiles = true
	return m, nil
}

// persist writes the config, reporting failures in the selector
func (m Model) persist() Model {
	if err := m.saveConfig(m.config); err != nil {
		log.Warn().Err(err).Msg("could not save config")
		m.profileSelector = m.profileSelector.SetStatusMessage("Could not save config: " + err.Error())
	}
	return m
}

// refreshProfile re-points m.profile into the config slice, which may have
// been reallocated
func (m Model) refreshProfile(name string) Model {
	if p, err := m.config.GetProfile(name); err == nil {
		m.profile = p
	}
	m.profileSelector = m.profileSelector.SetProfiles(m.config.Profiles, m.profileName())
	return m
}

func (m Model) handleProfileSelected(msg profileselector.SelectedMsg) (tea.Model, tea.Cmd) {
	if msg.Index < 0 || msg.Index >= len(m.config.Profiles) {
		return m, nil
	}
	m = m.switchProfile(&m.config.Profiles[msg.Index])
	m.showProfiles = false
	return m, m.loadHistoryCmd("")
}

// switchProfile makes p active and rebuilds the backend for it
func (m Model) switchProfile(p *config.Profile) Model {
	m.profile = p
	if m.newBackend != nil {
		m.backend = m.newBackend(p)
		m.ac = m.ac.WithResolver(m.backend)
	}
	m.ac = m.ac.Dismiss()
	m.dropdown = m.dropdown.SetLoading(false).SetItems(nil).Hide()
	m.browser = m.browser.SetCompanies(nil, nil)

	m.config.DefaultProfile = p.Name
	m = m.persist()
	m.statusMsg = "Switched to profile " + p.Name
	log.Info().Str("profile", p.Name).Str("base_url", p.BaseURL).Msg("profile switched")
	return m
}

func (m Model) handleProfileSaved(msg profileselector.ProfileSavedMsg) (tea.Model, tea.Cmd) {
	active := m.profileName()

	if msg.IsNew {
		if err := m.config.AddProfile(msg.Profile); err != nil {
			m.profileSelector = m.profileSelector.SetStatusMessage(fmt.Sprintf("Error adding profile: %v", err))
			return m, nil
		}
		m = m.refreshProfile(active)
		m.profileSelector = m.profileSelector.SetStatusMessage("✓ Added profile: " + msg.Profile.Name)
		return m, nil
	}

	if err := m.config.UpdateProfile(msg.Original, msg.Profile); err != nil {
		m.profileSelector = m.profileSelector.SetStatusMessage(fmt.Sprintf("Error updating profile: %v", err))
		return m, nil
	}
	if msg.Original == active {
		active = msg.Profile.Name
		if m.config.DefaultProfile == msg.Original {
			m.config.DefaultProfile = active
			m = m.persist()
		}
	}
	m = m.refreshProfile(active)
	if msg.Original == m.profileName() || msg.Profile.Name == m.profileName() {
		// Keys or endpoint of the active profile changed
		if m.newBackend != nil {
			m.backend = m.newBackend(m.profile)
			m.ac = m.ac.WithResolver(m.backend)
		}
	}
	m.profileSelector = m.profileSelector.SetStatusMessage("✓ Saved profile: " + msg.Profile.Name)
	return m, nil
}

func (m Model) handleProfileManagement(msg profileselector.ManagementMsg) (tea.Model, tea.Cmd) {
	if msg.Action != profileselector.ActionDelete {
		return m, nil
	}
	active := m.profileName()
	if msg.Name == active {
		m.profileSelector = m.profileSelector.SetStatusMessage("Cannot delete the active profile")
		return m, nil
	}
	if err := m.config.DeleteProfile(msg.Name); err != nil {
		m.profileSelector = m.profileSelector.SetStatusMessage(fmt.Sprintf("Error deleting profile: %v", err))
		return m, nil
	}
	m = m.refreshProfile(active)
	m.profileSelector = m.profileSelector.SetStatusMessage("✓ Deleted profile: " + msg.Name)
	return m, nil
}
