package utils

/**************************************************************************************************
** Contains checks if a string is present in a slice of strings.
**
** @param list - Slice of strings to search
** @param s - String to search for
** @return bool - True if string is present in slice, false otherwise
**************************************************************************************************/
func Contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

/**************************************************************************************************
** RemoveEmptyStrings removes all empty strings from a string array and returns a new array
** without the empty strings. Preserves the order of non-empty strings.
**
** @param arr - Array to process
** @return []string - New array containing only non-empty strings
**************************************************************************************************/
func RemoveEmptyStrings(arr []string) []string {
	result := make([]string, 0, len(arr))

	for _, str := range arr {
		if str != "" {
			result = append(result, str)
		}
	}

	return result
}

/**************************************************************************************************
** ClampInt limits v to the inclusive [min, max] range. Used for focus indexes and viewport
** arithmetic where an out-of-range value would panic downstream.
**
** @param v - Value to clamp
** @param min - Lower bound
** @param max - Upper bound
** @return int - Clamped value
**************************************************************************************************/
func ClampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

/**************************************************************************************************
** ToggleString adds s to the list when absent and removes it when present, returning the new
** list. Order of the remaining elements is preserved.
**
** @param list - Current values
** @param s - Value to toggle
** @return []string - Updated list
**************************************************************************************************/
func ToggleString(list []string, s string) []string {
	if !Contains(list, s) {
		return append(append([]string{}, list...), s)
	}
	result := make([]string, 0, len(list)-1)
	for _, v := range list {
		if v != s {
			result = append(result, v)
		}
	}
	return result
}
