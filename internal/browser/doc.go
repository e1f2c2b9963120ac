// Package browser opens pull request pages in the default web browser.
package browser
