package browser

import "fmt"

// Each script collects {title, url, ...} into outList and returns it joined by linefeeds.
// The "is running" guard keeps the query from launching a browser that is closed.

const safariAllTabs = `set outList to {}
if application "Safari" is running then
	tell application "Safari"
		repeat with w in windows
			repeat with t in (tabs of w)
				set theTitle to name of t
				copy theTitle to end of outList
				set theURL to URL of t
				copy theURL to end of outList
			end repeat
		end repeat
	end tell
end if
%s`

const safariActiveTab = `set outList to {}
if application "Safari" is running then
	tell application "Safari"
		set theTitle to the name of current tab of first window
		copy theTitle to end of outList
		set theURL to the URL of current tab of first window
		copy theURL to end of outList
	end tell
end if
%s`

const chromiumAllTabs = `set outList to {}
if application "%[1]s" is running then
	tell application "%[1]s"
		repeat with w in windows
			repeat with t in (tabs of w)
				set theTitle to title of t
				copy theTitle to end of outList
				set theURL to URL of t
				copy theURL to end of outList
			end repeat
		end repeat
	end tell
end if
%[2]s`

const chromiumActiveTab = `set outList to {}
if application "%[1]s" is running then
	tell application "%[1]s"
		set theTitle to title of active tab of first window
		copy theTitle to end of outList
		set theURL to URL of active tab of first window
		copy theURL to end of outList
	end tell
end if
%[2]s`

const joinOutList = `set AppleScript's text item delimiters to linefeed
return outList as text`

var scripts = map[Browser]map[Scope]string{
	Safari: {
		All:    fmt.Sprintf(safariAllTabs, joinOutList),
		Active: fmt.Sprintf(safariActiveTab, joinOutList),
	},
	Brave: {
		All:    fmt.Sprintf(chromiumAllTabs, Brave.AppName(), joinOutList),
		Active: fmt.Sprintf(chromiumActiveTab, Brave.AppName(), joinOutList),
	},
	Chrome: {
		All:    fmt.Sprintf(chromiumAllTabs, Chrome.AppName(), joinOutList),
		Active: fmt.Sprintf(chromiumActiveTab, Chrome.AppName(), joinOutList),
	},
}

// Script returns the AppleScript for browser and scope. Unknown browsers fall back to Safari.
func Script(b Browser, scope Scope) string {
	byScope, ok := scripts[b]
	if !ok {
		byScope = scripts[Safari]
	}
	return byScope[scope]
}
