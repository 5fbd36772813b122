// Package lang names the supported source languages and holds their
// classification policies.
//
// A Policy is selected once per unit through Kind.Policy. It decides, node by
// node, whether a syntax node is abstractable and under which category. The
// decision may consult the categories already recorded for the unit.
package lang
