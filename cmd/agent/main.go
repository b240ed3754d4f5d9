/*
 * @author: Sun977
 * @date: 2026.01.21
 * @description: Agent 可执行文件入口
 */

package main

func main() {
	Execute()
}
