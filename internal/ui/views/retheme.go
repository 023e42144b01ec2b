package views

import "taskdeck/internal/ui/styles"

// Retheme rebuilds a view's styles after a theme switch

func (v *HomeView) Retheme()          { v.styles = styles.NewStyles() }
func (v *LoginView) Retheme()         { v.styles = styles.NewStyles() }
func (v *RegisterView) Retheme()      { v.styles = styles.NewStyles() }
func (v *DashboardView) Retheme()     { v.styles = styles.NewStyles() }
func (v *NotificationsView) Retheme() { v.styles = styles.NewStyles() }
func (v *AdminView) Retheme()         { v.styles = styles.NewStyles() }
