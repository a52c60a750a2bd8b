package nav

// ActionID identifies a sidebar action.
type ActionID string

const (
	ActionCreateRelease      ActionID = "create-release"
	ActionImportRequirements ActionID = "import-requirements"
	ActionJiraDashboard      ActionID = "jira-dashboard"
)

// Requirement is the selection an action needs before it can be invoked.
type Requirement int

const (
	NeedsNothing Requirement = iota
	NeedsProject
	NeedsRelease
)

// MenuItem is a sidebar entry: either an Action or a Group.
type MenuItem interface {
	menuItem()
}

// Action is a leaf sidebar entry.
type Action struct {
	ID       ActionID
	Label    string
	Requires Requirement
	// Implemented is false for entries that only announce a future feature.
	Implemented bool
}

// Group is an expandable sidebar entry holding actions.
type Group struct {
	ID       string
	Label    string
	Items    []Action
	Expanded bool
}

func (Action) menuItem() {}
func (Group) menuItem()  {}

// ZephyrMenu returns the sidebar of the Zephyr tab.
func ZephyrMenu() []MenuItem {
	return []MenuItem{
		Action{ID: ActionCreateRelease, Label: "Create Release", Requires: NeedsProject, Implemented: true},
		Group{ID: "manage-release", Label: "Manage Release Data", Items: []Action{
			{ID: ActionImportRequirements, Label: "Import Requirements", Requires: NeedsRelease, Implemented: true},
			{ID: "map-requirements", Label: "Map Requirements", Requires: NeedsRelease},
			{ID: "create-test-case", Label: "Create Test Case", Requires: NeedsRelease},
			{ID: "import-bulk-testcases", Label: "Import Bulk Testcases", Requires: NeedsRelease},
			{ID: "manage-cycles-phases", Label: "Manage Cycles & Phases", Requires: NeedsRelease},
			{ID: "update-execution-status", Label: "Update Execution Status", Requires: NeedsRelease},
			{ID: "import-regression", Label: "Import Regression Testcases", Requires: NeedsRelease},
			{ID: "update-central-repo", Label: "Update Central Test Repo", Requires: NeedsRelease},
		}},
		Action{ID: "view-my-bow", Label: "View My BOW", Requires: NeedsRelease},
		Action{ID: "view-team-bow", Label: "View My Team's BOW", Requires: NeedsRelease},
		Action{ID: "release-summary", Label: "Release Summary View", Requires: NeedsRelease},
		Action{ID: "capability-metrics", Label: "View Capability Metrics", Requires: NeedsRelease},
		Action{ID: "configure-confluence", Label: "Configure Confluence"},
	}
}

// JiraMenu returns the sidebar of the Jira tab.
func JiraMenu() []MenuItem {
	return []MenuItem{
		Action{ID: ActionJiraDashboard, Label: "Jira Dashboard", Requires: NeedsProject, Implemented: true},
		Action{ID: "jira-issues", Label: "View Issues", Requires: NeedsProject},
		Action{ID: "jira-reports", Label: "Reports", Requires: NeedsProject},
	}
}

// LookupAction finds an action in either sidebar.
func LookupAction(id ActionID) (Action, bool) {
	for _, menu := range [][]MenuItem{ZephyrMenu(), JiraMenu()} {
		for _, it := range menu {
			switch it := it.(type) {
			case Action:
				if it.ID == id {
					return it, true
				}
			case Group:
				for _, a := range it.Items {
					if a.ID == id {
						return a, true
					}
				}
			}
		}
	}
	return Action{}, false
}

// Requires returns the prerequisite of an action. Unknown actions need
// nothing and route to the dashboard.
func Requires(id ActionID) Requirement {
	switch id {
	case ActionCreateRelease:
		return NeedsProject
	case ActionImportRequirements:
		return NeedsRelease
	}
	if a, ok := LookupAction(id); ok {
		return a.Requires
	}
	return NeedsNothing
}

// Menu returns the sidebar of the active tab with the expanded group
// marked.
func (m *Machine) Menu() []MenuItem {
	items := ZephyrMenu()
	if m.tab == Jira {
		items = JiraMenu()
	}
	for i, it := range items {
		if g, ok := it.(Group); ok && g.ID == m.expanded {
			g.Expanded = true
			items[i] = g
		}
	}
	return items
}

// ToggleGroup expands the group id, collapsing any other. Toggling the
// expanded group collapses it.
func (m *Machine) ToggleGroup(id string) {
	if m.expanded == id {
		m.expanded = ""
		return
	}
	m.expanded = id
}

// Expanded returns the id of the expanded group, or "".
func (m *Machine) Expanded() string { return m.expanded }
