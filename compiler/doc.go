/*

Process of lowering

Tree Text ->
	parse ->
Forms (ast) ->
	front ->
Control Flow Tree (node) ->
	lower ->
Instruction Stream (asm) ->
	link ->
Program (pcs resolved) ->
	format ->
Listing

Structured nodes (for) rewrite themselves into blocks, labels and jumps
right before emission. Structural visitors (node.Visitor) see the tree
as built: a for node has children initialize, condition, update, body.

*/
package compiler
