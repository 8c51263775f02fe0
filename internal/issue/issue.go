// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigNotFoundId Id = iota + 1
	ConfigParseErrorId
	ScriptNotFoundId
	ScriptExecutionFailedId
	PackageManagerNotFoundId
	InvalidRuntimeModeId
	DependencyCycleId
	PermissionDeniedId
	ValidationFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	configNotFoundIssue = &Issue{
		id: ConfigNotFoundId,
		mdMsg: `
# Configuration file not found!

The configuration file passed with ` + "`--file`" + ` does not exist.

## Search locations when no file is given (in order of precedence):
1. ` + "`$UVEXTRAS_CONFIG`" + `
2. ` + "`$XDG_CONFIG_HOME/uvextras/uvextras.yaml`" + `
3. ` + "`~/.config/uvextras/uvextras.yaml`" + `
4. ` + "`uvextras.yaml`" + ` next to the uvextras binary
5. ` + "`./uvextras.yaml`" + `

## Things you can try:
- Check the path for typos
- Drop ` + "`--file`" + ` to use the search locations above
- Print the built-in default configuration:
~~~
$ uvextras config dump > uvextras.yaml
~~~`,
	}

	configParseErrorIssue = &Issue{
		id: ConfigParseErrorId,
		mdMsg: `
# Failed to parse the configuration file!

The configuration document is not valid YAML or does not match the expected schema.

## Common issues:
- Indentation mixing tabs and spaces
- A script entry without a ` + "`name`" + `
- An unknown ` + "`bind`" + ` key in ` + "`envvars`" + ` (valid: config, home, scripts, localdir, localscripts, localconfig, pythondir, tooldir)
- Two ` + "`envvars`" + ` entries binding the same key
- Misspelled fields (` + "`desc`" + `, ` + "`cmd`" + `, ` + "`depends-on`" + `, ` + "`use-python`" + `, ` + "`is-local`" + `, ` + "`env`" + `, ` + "`options`" + `)

## Example:
~~~yaml
envvars:
  - bind: scripts
    name: UVEXTRAS_SCRIPTS
    resolve: ["$HOME/.uvextras/scripts"]
scripts:
  - name: lint
    cmd: ruff check
    use-python: false
~~~`,
	}

	scriptNotFoundIssue = &Issue{
		id: ScriptNotFoundId,
		mdMsg: `
# Script not found!

The script you tried to run is not declared in the configuration and no matching
` + "`.py`" + ` file exists in the local scripts directory.

## Things you can try:
- List the available scripts:
~~~
$ uvextras list
~~~
- Check for typos in the script name
- Add the script to ` + "`uvextras.yaml`" + ` or drop a ` + "`<name>.py`" + ` file into ` + "`.uvextras/scripts`",
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed!

A script in the run plan exited with a non-zero status. Steps after it were not run.

## Things you can try:
- Inspect the plan without executing anything:
~~~
$ uvextras run --dry-run <script>
~~~
- Re-run with ` + "`--verbose`" + ` to see each invocation and its environment
- Use ` + "`--keep-going`" + ` to run the remaining steps anyway`,
	}

	packageManagerNotFoundIssue = &Issue{
		id: PackageManagerNotFoundId,
		mdMsg: `
# Package manager not found!

uvextras drives ` + "`uv`" + ` but could not execute it.

## Things you can try:
- Install uv and make sure it is on your PATH
- Point ` + "`settings.package-manager`" + ` (or ` + "`UVEXTRAS_PACKAGE_MANAGER`" + `) at the uv binary`,
		extLinks: []HttpLink{"https://docs.astral.sh/uv/getting-started/installation/"},
	}

	invalidRuntimeModeIssue = &Issue{
		id: InvalidRuntimeModeId,
		mdMsg: `
# Invalid runtime mode!

` + "`settings.runtime`" + ` must be one of:
- **native**: run commands directly (default)
- **virtual**: run commands through the built-in portable shell`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

Scripts reference each other through ` + "`depends-on`" + `. Only direct dependencies
are executed, so a cycle never loops forever, but it usually means a dependency is
declared on the wrong script.

## Things you can try:
- Run ` + "`uvextras validate`" + ` to see the cycle
- Remove one of the ` + "`depends-on`" + ` entries that closes the loop`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

A script, directory or configuration file could not be accessed.

## Things you can try:
- Check the permissions of the scripts directory
- Make sure the configuration file is readable`,
	}

	validationFailedIssue = &Issue{
		id: ValidationFailedId,
		mdMsg: `
# Configuration validation failed!

` + "`uvextras validate`" + ` found errors in the merged configuration.

## Things you can try:
- Declare every name used in ` + "`depends-on`" + `
- Create the missing script files, or set ` + "`use-python: false`" + ` for raw commands`,
	}

	issues = map[Id]*Issue{
		configNotFoundIssue.Id():         configNotFoundIssue,
		configParseErrorIssue.Id():       configParseErrorIssue,
		scriptNotFoundIssue.Id():         scriptNotFoundIssue,
		scriptExecutionFailedIssue.Id():  scriptExecutionFailedIssue,
		packageManagerNotFoundIssue.Id(): packageManagerNotFoundIssue,
		invalidRuntimeModeIssue.Id():     invalidRuntimeModeIssue,
		dependencyCycleIssue.Id():        dependencyCycleIssue,
		permissionDeniedIssue.Id():       permissionDeniedIssue,
		validationFailedIssue.Id():       validationFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
