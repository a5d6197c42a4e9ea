package configdef

var HasDupSessionTitles = hasDupSessionTitles
