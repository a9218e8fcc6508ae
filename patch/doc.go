/*

The patch package installs a block of text into a named region of a target
file. The region is delimited by two marker lines:

	;${<name>:Begin}
	...
	;${<name>:End}

If the file has no such region the block is appended, after a blank line,
between a fresh pair of markers. If it has one, everything between the
marker lines is replaced; the marker lines are left exactly as they were.
Files that already hold the block are not rewritten, so applying the same
block twice changes nothing.

Missing files are silently skipped. A file with a begin marker but no end
marker after it is reported as corrupted and left alone.

*/
package patch
