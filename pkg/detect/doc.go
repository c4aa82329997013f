// Package detect implements the accessibility detector pipeline.
//
// Each detector is a pure function over the parsed view hierarchy (and,
// for contrast checks, the decoded screenshot): it never mutates its
// inputs and emits zero or more [Issue] values. [Run] executes the four
// detectors in their fixed order and concatenates the results:
//
//  1. [ContentDescriptions]: interactive or image elements without a
//     usable content description
//  2. [TouchTargets]: clickable elements smaller than 44dp
//  3. [TextContrast]: text elements whose dominant colors miss the
//     WCAG contrast thresholds
//  4. [HeadingHierarchy]: heading elements that skip levels
//
// Severities are "High" and "Medium". Issues carry ordered diagnostic
// fields ([ElementInfo]) that serialize to JSON and YAML objects with
// stable key order.
package detect
