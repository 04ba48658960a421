// Package browser drives Chromium through Playwright for act sessions.
//
// # Sessions
//
// A Session wraps one browser context and its active page. Sessions are
// created by a SessionManager, which owns the Playwright driver:
//
//  1. Initialize installs the driver if needed and starts it
//  2. StartSession launches a browser (or a persistent context when a user
//     data directory is given) and opens a page
//  3. Page operations such as Navigate, Click and Observe run on the session
//  4. CloseSession releases the page, context and browser
//
// Default returns a manager shared by the whole process, so parallel
// workers reuse one driver while each gets its own browser.
//
// # Profiles
//
// When SessionOptions.UserDataDir is set the session keeps cookies and
// local storage in that directory between runs. With CloneUserDataDir the
// session works on a temporary copy that is removed on close, which lets
// several sessions start from the same logged-in profile.
//
// # Observations
//
// Observe returns a cleaned copy of the page: scripts, styles and other
// noise are dropped, only attributes useful for targeting are kept, and
// form values are never copied. Text typed with TypeSensitive therefore
// never reaches an observation.
package browser
