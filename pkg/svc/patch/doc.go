// Package patch produces unified-diff text between two canonical text blobs.
//
// The output follows the unified convention used throughout ksync for display,
// transmission and re-parsing:
//
//	Index: <label>
//	===================================================================
//	--- <label>	<old label>
//	+++ <label>	<new label>
//	@@ -a,b +c,d @@
//	 context
//	-old only
//	+new only
//
// Line diffs are computed with diffmatchpatch in line mode. By default every
// hunk carries the whole text as context so a parsed patch reproduces both
// inputs; WithContext trims context for compact terminal output.
package patch
