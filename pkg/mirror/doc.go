// Package mirror keeps the local settings file in step with GitHub and
// guards branch creation with it.
//
// Syncer rebuilds the settings file from every repository a token can see,
// or merges in the repositories of one organization. BranchCreator only
// touches GitHub when the requested repository and source branch are
// already present in the settings file.
package mirror
