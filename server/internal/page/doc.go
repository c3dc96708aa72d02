// Package page serves the single dashboard page.
//
// The page is rendered from an embedded html/template with the current
// api.Layout, so the title, site options and slider bounds are in the first
// response. A script then opens /ws/view, sends one request per selector
// change and swaps the chart images when the matching reply arrives.
package page
