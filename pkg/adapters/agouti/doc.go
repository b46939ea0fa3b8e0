// Package agouti implements ports.Page on top of a github.com/sclevine/agouti WebDriver session.
package agouti
