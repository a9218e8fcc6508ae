/*

The autoexp package expands the directive language used in autoexp.dat
templates. A template is ordinary debugger-visualizer text with some extra
lines starting with '@':

	@library <name>             ; the marker name for the target files
	@define <symbol> [<text>]   ; text to be substituted for the symbol
	@                           ; removed
	@ anything                  ; removed (a disabled directive)

Directive lines never appear in the output. After a symbol has been
defined every later occurrence of the symbol name, outside of comments
(starting with ';'), strings and numbers and not immediately preceded by
'#', is replaced with its text. A symbol name may be scoped with "::".

The text of a definition is expanded when it is defined, so it may refer to
earlier symbols, but the substituted text is not examined again where the
symbol is used.

You construct an Expander with New and then call Expand on the template
text. The Result holds the expanded text and the library name.

*/
package autoexp
