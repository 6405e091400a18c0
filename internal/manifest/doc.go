// Package manifest locates package.json, extracts its SVN dependency mapping,
// narrows it to requested names and parses each "url[#revision]" specifier.
package manifest
