// Package modules installs and uninstalls the SVN dependencies declared in a project manifest.
//
// A run locates package.json, narrows the declared dependencies to the requested
// names, then processes each dependency in name order: install exports it from
// SVN into the local cache, packages it as a tarball and hands it to npm, while
// uninstall asks npm to remove it and clears its cache entry. A failing
// dependency never stops the others; the Outcome records both sides.
package modules
