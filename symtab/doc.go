/*

The symtab package holds the symbols defined while expanding an autoexp
template. Each symbol maps a name, which may be scoped with "::" (for
instance "asmjit::Operand"), to the text that replaces it. The text is
stored already resolved, the table never expands it again.

Names are unique: defining a name a second time is an error which reports
both the place of the new definition and of the original one.

*/
package symtab
